package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/elasticbeanstalk"
	"github.com/func/beanstalk/provider"
)

// DescribeApplicationVersions returns the versions of an application,
// following pagination.
func (c *Client) DescribeApplicationVersions(ctx context.Context, app string, labels ...string) ([]provider.ApplicationVersion, error) {
	const op = "DescribeApplicationVersions"
	input := &elasticbeanstalk.DescribeApplicationVersionsInput{
		ApplicationName: aws.String(app),
		VersionLabels:   labels,
	}
	var out []provider.ApplicationVersion
	for {
		resp, err := c.EB.DescribeApplicationVersionsRequest(input).Send(ctx)
		if err != nil {
			return nil, classify(op, err)
		}
		for _, v := range resp.ApplicationVersions {
			out = append(out, fromVersion(v))
		}
		if aws.StringValue(resp.NextToken) == "" {
			return out, nil
		}
		input.NextToken = resp.NextToken
	}
}

// CreateApplicationVersion creates a version pointing at its source bundle.
func (c *Client) CreateApplicationVersion(ctx context.Context, v provider.ApplicationVersion) error {
	const op = "CreateApplicationVersion"
	input := &elasticbeanstalk.CreateApplicationVersionInput{
		ApplicationName: aws.String(v.ApplicationName),
		VersionLabel:    aws.String(v.VersionLabel),
		Description:     optString(v.Description),
	}
	if !v.SourceBundle.Empty() {
		input.SourceBundle = &elasticbeanstalk.S3Location{
			S3Bucket: aws.String(v.SourceBundle.Bucket),
			S3Key:    aws.String(v.SourceBundle.Key),
		}
	}
	if err := input.Validate(); err != nil {
		return invalidInput(op, err)
	}
	_, err := c.EB.CreateApplicationVersionRequest(input).Send(ctx)
	return classify(op, err)
}

// DeleteApplicationVersion deletes a version, leaving the source bundle in
// place.
func (c *Client) DeleteApplicationVersion(ctx context.Context, app, label string) error {
	const op = "DeleteApplicationVersion"
	input := &elasticbeanstalk.DeleteApplicationVersionInput{
		ApplicationName:    aws.String(app),
		VersionLabel:       aws.String(label),
		DeleteSourceBundle: aws.Bool(false),
	}
	if err := input.Validate(); err != nil {
		return invalidInput(op, err)
	}
	_, err := c.EB.DeleteApplicationVersionRequest(input).Send(ctx)
	return classify(op, err)
}
