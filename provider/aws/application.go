package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/elasticbeanstalk"
	"github.com/func/beanstalk/provider"
)

// DescribeApplications returns the applications matching the given names.
func (c *Client) DescribeApplications(ctx context.Context, names ...string) ([]provider.Application, error) {
	const op = "DescribeApplications"
	resp, err := c.EB.DescribeApplicationsRequest(&elasticbeanstalk.DescribeApplicationsInput{
		ApplicationNames: names,
	}).Send(ctx)
	if err != nil {
		return nil, classify(op, err)
	}
	apps := make([]provider.Application, len(resp.Applications))
	for i, a := range resp.Applications {
		apps[i] = fromApplication(a)
	}
	return apps, nil
}

// CreateApplication creates an application.
func (c *Client) CreateApplication(ctx context.Context, name, description string) error {
	const op = "CreateApplication"
	input := &elasticbeanstalk.CreateApplicationInput{
		ApplicationName: aws.String(name),
		Description:     optString(description),
	}
	if err := input.Validate(); err != nil {
		return invalidInput(op, err)
	}
	_, err := c.EB.CreateApplicationRequest(input).Send(ctx)
	return classify(op, err)
}

// UpdateApplication sets the description of an application.
func (c *Client) UpdateApplication(ctx context.Context, name, description string) error {
	const op = "UpdateApplication"
	input := &elasticbeanstalk.UpdateApplicationInput{
		ApplicationName: aws.String(name),
		Description:     aws.String(description),
	}
	if err := input.Validate(); err != nil {
		return invalidInput(op, err)
	}
	_, err := c.EB.UpdateApplicationRequest(input).Send(ctx)
	return classify(op, err)
}

// DeleteApplication deletes an application. The provider rejects the call if
// the application has running environments.
func (c *Client) DeleteApplication(ctx context.Context, name string) error {
	const op = "DeleteApplication"
	input := &elasticbeanstalk.DeleteApplicationInput{
		ApplicationName: aws.String(name),
	}
	if err := input.Validate(); err != nil {
		return invalidInput(op, err)
	}
	_, err := c.EB.DeleteApplicationRequest(input).Send(ctx)
	return classify(op, err)
}
