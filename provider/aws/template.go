package aws

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/elasticbeanstalk"
	"github.com/func/beanstalk/provider"
)

// DescribeConfigurationSettings returns the settings for an environment or a
// configuration template. If neither is given, the settings of every template
// in the application are returned.
func (c *Client) DescribeConfigurationSettings(ctx context.Context, app, env, template string) ([]provider.ConfigurationSettings, error) {
	const op = "DescribeConfigurationSettings"
	if env == "" && template == "" {
		apps, err := c.DescribeApplications(ctx, app)
		if err != nil {
			return nil, err
		}
		if len(apps) == 0 {
			return nil, provider.NotFound(op, "No Application named '%s' found.", app)
		}
		var out []provider.ConfigurationSettings
		for _, name := range apps[0].ConfigurationTemplates {
			ss, err := c.DescribeConfigurationSettings(ctx, app, "", name)
			if err != nil {
				return nil, err
			}
			out = append(out, ss...)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].TemplateName < out[j].TemplateName })
		return out, nil
	}

	input := &elasticbeanstalk.DescribeConfigurationSettingsInput{
		ApplicationName: aws.String(app),
		EnvironmentName: optString(env),
		TemplateName:    optString(template),
	}
	if err := input.Validate(); err != nil {
		return nil, invalidInput(op, err)
	}
	resp, err := c.EB.DescribeConfigurationSettingsRequest(input).Send(ctx)
	if err != nil {
		return nil, classify(op, err)
	}
	out := make([]provider.ConfigurationSettings, len(resp.ConfigurationSettings))
	for i, s := range resp.ConfigurationSettings {
		out[i] = fromSettings(s)
	}
	return out, nil
}

// CreateConfigurationTemplate creates a configuration template.
func (c *Client) CreateConfigurationTemplate(ctx context.Context, in provider.TemplateInput) error {
	const op = "CreateConfigurationTemplate"
	input := &elasticbeanstalk.CreateConfigurationTemplateInput{
		ApplicationName:   aws.String(in.ApplicationName),
		TemplateName:      aws.String(in.TemplateName),
		Description:       optString(in.Description),
		SolutionStackName: optString(in.SolutionStackName),
		OptionSettings:    toOptionSettings(in.OptionSettings),
	}
	keys := make([]string, 0, len(in.Tags))
	for k := range in.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		input.Tags = append(input.Tags, elasticbeanstalk.Tag{
			Key:   aws.String(k),
			Value: aws.String(in.Tags[k]),
		})
	}
	if err := input.Validate(); err != nil {
		return invalidInput(op, err)
	}
	_, err := c.EB.CreateConfigurationTemplateRequest(input).Send(ctx)
	return classify(op, err)
}

// UpdateConfigurationTemplate updates the description and option settings of
// a configuration template.
func (c *Client) UpdateConfigurationTemplate(ctx context.Context, in provider.TemplateInput) error {
	const op = "UpdateConfigurationTemplate"
	input := &elasticbeanstalk.UpdateConfigurationTemplateInput{
		ApplicationName: aws.String(in.ApplicationName),
		TemplateName:    aws.String(in.TemplateName),
		Description:     optString(in.Description),
		OptionSettings:  toOptionSettings(in.OptionSettings),
	}
	if err := input.Validate(); err != nil {
		return invalidInput(op, err)
	}
	_, err := c.EB.UpdateConfigurationTemplateRequest(input).Send(ctx)
	return classify(op, err)
}

// DeleteConfigurationTemplate deletes a configuration template.
func (c *Client) DeleteConfigurationTemplate(ctx context.Context, app, template string) error {
	const op = "DeleteConfigurationTemplate"
	input := &elasticbeanstalk.DeleteConfigurationTemplateInput{
		ApplicationName: aws.String(app),
		TemplateName:    aws.String(template),
	}
	if err := input.Validate(); err != nil {
		return invalidInput(op, err)
	}
	_, err := c.EB.DeleteConfigurationTemplateRequest(input).Send(ctx)
	return classify(op, err)
}
