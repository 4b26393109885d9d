package aws

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/elasticbeanstalk"
	"github.com/func/beanstalk/provider"
)

func fromApplication(a elasticbeanstalk.ApplicationDescription) provider.Application {
	return provider.Application{
		Name:                   aws.StringValue(a.ApplicationName),
		Description:            aws.StringValue(a.Description),
		Versions:               a.Versions,
		ConfigurationTemplates: a.ConfigurationTemplates,
		Created:                aws.TimeValue(a.DateCreated),
		Updated:                aws.TimeValue(a.DateUpdated),
	}
}

func fromVersion(v elasticbeanstalk.ApplicationVersionDescription) provider.ApplicationVersion {
	out := provider.ApplicationVersion{
		ApplicationName: aws.StringValue(v.ApplicationName),
		VersionLabel:    aws.StringValue(v.VersionLabel),
		Description:     aws.StringValue(v.Description),
		Status:          string(v.Status),
		Created:         aws.TimeValue(v.DateCreated),
		Updated:         aws.TimeValue(v.DateUpdated),
	}
	if v.SourceBundle != nil {
		out.SourceBundle = provider.SourceBundle{
			Bucket: aws.StringValue(v.SourceBundle.S3Bucket),
			Key:    aws.StringValue(v.SourceBundle.S3Key),
		}
	}
	return out
}

func fromEnvironment(e elasticbeanstalk.EnvironmentDescription) provider.Environment {
	out := provider.Environment{
		ID:                aws.StringValue(e.EnvironmentId),
		Name:              aws.StringValue(e.EnvironmentName),
		ApplicationName:   aws.StringValue(e.ApplicationName),
		Description:       aws.StringValue(e.Description),
		VersionLabel:      aws.StringValue(e.VersionLabel),
		TemplateName:      aws.StringValue(e.TemplateName),
		SolutionStackName: aws.StringValue(e.SolutionStackName),
		Status:            string(e.Status),
		Health:            string(e.Health),
		CNAME:             aws.StringValue(e.CNAME),
		Updated:           aws.TimeValue(e.DateUpdated),
	}
	if e.Tier != nil {
		out.Tier = aws.StringValue(e.Tier.Name)
	}
	return out
}

func fromSettings(s elasticbeanstalk.ConfigurationSettingsDescription) provider.ConfigurationSettings {
	out := provider.ConfigurationSettings{
		ApplicationName:   aws.StringValue(s.ApplicationName),
		EnvironmentName:   aws.StringValue(s.EnvironmentName),
		TemplateName:      aws.StringValue(s.TemplateName),
		SolutionStackName: aws.StringValue(s.SolutionStackName),
		Description:       aws.StringValue(s.Description),
		DeploymentStatus:  string(s.DeploymentStatus),
		OptionSettings:    make([]provider.OptionSetting, 0, len(s.OptionSettings)),
	}
	for _, o := range s.OptionSettings {
		out.OptionSettings = append(out.OptionSettings, provider.OptionSetting{
			Namespace:  aws.StringValue(o.Namespace),
			OptionName: aws.StringValue(o.OptionName),
			Value:      aws.StringValue(o.Value),
		})
	}
	return out
}

func toOptionSettings(in []provider.OptionSetting) []elasticbeanstalk.ConfigurationOptionSetting {
	if len(in) == 0 {
		return nil
	}
	out := make([]elasticbeanstalk.ConfigurationOptionSetting, len(in))
	for i, o := range in {
		out[i] = elasticbeanstalk.ConfigurationOptionSetting{
			Namespace:  aws.String(o.Namespace),
			OptionName: aws.String(o.OptionName),
			Value:      aws.String(o.Value),
		}
	}
	return out
}

// tier returns the environment tier for a tier name. Returns nil if the name
// is empty.
func tier(name string) *elasticbeanstalk.EnvironmentTier {
	switch name {
	case "":
		return nil
	case "Worker":
		return &elasticbeanstalk.EnvironmentTier{
			Name:    aws.String("Worker"),
			Type:    aws.String("SQS/HTTP"),
			Version: aws.String("1.0"),
		}
	default:
		return &elasticbeanstalk.EnvironmentTier{
			Name:    aws.String(name),
			Type:    aws.String("Standard"),
			Version: aws.String("1.0"),
		}
	}
}

// optString returns nil for empty strings.
func optString(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}
