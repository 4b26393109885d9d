package config

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/func/beanstalk/provider"
	"github.com/func/beanstalk/suggest"
	"gopkg.in/go-playground/validator.v9"
)

var check = validator.New()

func mustRegister(err error) {
	if err != nil {
		panic(fmt.Sprintf("Register custom validator: %v", err))
	}
}

// Environment names are 4 to 40 characters, letters, numbers and hyphens, and
// cannot start or end with a hyphen.
var envNameRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{2,38}[a-zA-Z0-9]$`)

func init() {
	check.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("hcl"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	mustRegister(check.RegisterValidation("ebname", func(fl validator.FieldLevel) bool {
		return envNameRe.MatchString(fl.Field().String())
	}))
}

var formats = map[string]string{
	"min":    "must be at least %v",
	"max":    "must be at most %v characters",
	"oneof":  "must be one of: [%v]",
	"ebname": "must be 4 to 40 characters, contain only letters, numbers and hyphens, and not start or end with a hyphen",
}

// A FieldError describes an invalid option.
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string { return e.Field + ": " + e.Reason }

// A ValidationError is returned when a configuration is invalid. It is
// returned before any call to the provider is made.
type ValidationError struct {
	Resource string // Resource description, such as: environment "foo".
	Fields   []FieldError
}

func (e *ValidationError) Error() string {
	ss := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		ss[i] = f.Error()
	}
	return fmt.Sprintf("invalid %s: %s", e.Resource, strings.Join(ss, "; "))
}

type validation struct {
	fields []FieldError
}

func (v *validation) add(field, format string, args ...interface{}) {
	v.fields = append(v.fields, FieldError{Field: field, Reason: fmt.Sprintf(format, args...)})
}

func (v *validation) structFields(s interface{}) {
	err := check.Struct(s)
	if err == nil {
		return
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		v.add("-", err.Error())
		return
	}
	for _, fe := range errs {
		format, ok := formats[fe.Tag()]
		if !ok {
			v.add(fe.Field(), "failed on %s", fe.Tag())
			continue
		}
		if fe.Tag() == "min" && fe.Kind() == reflect.String {
			format = "must be at least %v characters"
		}
		if fe.Tag() == "max" && fe.Kind() != reflect.String {
			format = "must be at most %v"
		}
		if !strings.Contains(format, "%") {
			v.add(fe.Field(), format)
			continue
		}
		v.add(fe.Field(), format, fe.Param())
	}
}

func (v *validation) state(got State, allowed ...State) {
	candidates := make([]string, len(allowed))
	for i, s := range allowed {
		if got == s {
			return
		}
		candidates[i] = string(s)
	}
	reason := fmt.Sprintf("must be one of: [%s]", strings.Join(candidates, " "))
	if s := suggest.String(string(got), candidates); s != "" {
		reason += fmt.Sprintf(", did you mean %q?", s)
	}
	v.fields = append(v.fields, FieldError{Field: "state", Reason: reason})
}

func (v *validation) required(field, value string) {
	if value == "" {
		v.add(field, "required")
	}
}

func (v *validation) options(field string, settings []provider.OptionSetting) {
	for i, o := range settings {
		if o.Namespace == "" {
			v.add(fmt.Sprintf("%s[%d].namespace", field, i), "required")
		}
		if o.OptionName == "" {
			v.add(fmt.Sprintf("%s[%d].option_name", field, i), "required")
		}
	}
}

func (v *validation) err(resource string) error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Resource: resource, Fields: v.fields}
}

// Validate checks that the configuration is valid.
func (a *Application) Validate() error {
	var v validation
	v.structFields(a)
	v.state(a.State, StatePresent, StateAbsent, StateList)
	if a.State != StateList {
		v.required("name", a.Name)
	}
	return v.err(fmt.Sprintf("application %q", a.Name))
}

// Validate checks that the configuration is valid.
func (ver *Version) Validate() error {
	var v validation
	v.structFields(ver)
	v.state(ver.State, StatePresent, StateAbsent, StateList, StateCleanup)
	v.required("application", ver.ApplicationName)
	switch ver.State {
	case StatePresent:
		v.required("label", ver.VersionLabel)
		v.required("s3_bucket", ver.S3Bucket)
		v.required("s3_key", ver.S3Key)
	case StateAbsent:
		v.required("label", ver.VersionLabel)
	case StateCleanup:
		if ver.DaysToStore == 0 && ver.VersionsToStore == 0 {
			v.add("days_to_store", "days_to_store and/or versions_to_store are required for cleanup")
		}
	}
	return v.err(fmt.Sprintf("version %q", ver.VersionLabel))
}

// Validate checks that the configuration is valid.
func (e *Environment) Validate() error {
	var v validation
	v.structFields(e)
	v.state(e.State, StatePresent, StateAbsent, StateList, StateDetails)
	v.required("application", e.ApplicationName)
	if e.State != StateList {
		v.required("name", e.Name)
	}
	if e.TemplateName != "" && e.SolutionStackName != "" {
		v.add("template_name", "cannot be set together with solution_stack_name")
	}
	v.options("option_setting", e.OptionSettings)
	return v.err(fmt.Sprintf("environment %q", e.Name))
}

// Validate checks that the configuration is valid.
func (t *Template) Validate() error {
	var v validation
	v.structFields(t)
	v.state(t.State, StatePresent, StateAbsent, StateList, StateDetails)
	v.required("application", t.ApplicationName)
	if t.State != StateList {
		v.required("name", t.Name)
	}
	v.options("option_setting", t.OptionSettings)
	return v.err(fmt.Sprintf("template %q", t.Name))
}
