package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/elasticbeanstalk"
	"github.com/func/beanstalk/provider"
)

// DescribeEnvironments returns the environments of an application, including
// deleted environments, following pagination.
func (c *Client) DescribeEnvironments(ctx context.Context, app string, names ...string) ([]provider.Environment, error) {
	const op = "DescribeEnvironments"
	input := &elasticbeanstalk.DescribeEnvironmentsInput{
		ApplicationName:  aws.String(app),
		EnvironmentNames: names,
		IncludeDeleted:   aws.Bool(true),
	}
	var out []provider.Environment
	for {
		resp, err := c.EB.DescribeEnvironmentsRequest(input).Send(ctx)
		if err != nil {
			return nil, classify(op, err)
		}
		for _, e := range resp.Environments {
			out = append(out, fromEnvironment(e))
		}
		if aws.StringValue(resp.NextToken) == "" {
			return out, nil
		}
		input.NextToken = resp.NextToken
	}
}

// CreateEnvironment launches a new environment.
func (c *Client) CreateEnvironment(ctx context.Context, in provider.CreateEnvironmentInput) error {
	const op = "CreateEnvironment"
	input := &elasticbeanstalk.CreateEnvironmentInput{
		ApplicationName:   aws.String(in.ApplicationName),
		EnvironmentName:   aws.String(in.EnvironmentName),
		Description:       optString(in.Description),
		VersionLabel:      optString(in.VersionLabel),
		TemplateName:      optString(in.TemplateName),
		SolutionStackName: optString(in.SolutionStackName),
		CNAMEPrefix:       optString(in.CNAMEPrefix),
		Tier:              tier(in.Tier),
		OptionSettings:    toOptionSettings(in.OptionSettings),
	}
	if err := input.Validate(); err != nil {
		return invalidInput(op, err)
	}
	_, err := c.EB.CreateEnvironmentRequest(input).Send(ctx)
	return classify(op, err)
}

// UpdateEnvironment deploys a version, switches the template or applies
// option settings to a running environment.
func (c *Client) UpdateEnvironment(ctx context.Context, in provider.UpdateEnvironmentInput) error {
	const op = "UpdateEnvironment"
	input := &elasticbeanstalk.UpdateEnvironmentInput{
		ApplicationName: optString(in.ApplicationName),
		EnvironmentName: aws.String(in.EnvironmentName),
		Description:     optString(in.Description),
		VersionLabel:    optString(in.VersionLabel),
		TemplateName:    optString(in.TemplateName),
		OptionSettings:  toOptionSettings(in.OptionSettings),
	}
	if err := input.Validate(); err != nil {
		return invalidInput(op, err)
	}
	_, err := c.EB.UpdateEnvironmentRequest(input).Send(ctx)
	return classify(op, err)
}

// TerminateEnvironment terminates an environment and its resources.
func (c *Client) TerminateEnvironment(ctx context.Context, name string) error {
	const op = "TerminateEnvironment"
	input := &elasticbeanstalk.TerminateEnvironmentInput{
		EnvironmentName:    aws.String(name),
		TerminateResources: aws.Bool(true),
	}
	if err := input.Validate(); err != nil {
		return invalidInput(op, err)
	}
	_, err := c.EB.TerminateEnvironmentRequest(input).Send(ctx)
	return classify(op, err)
}
