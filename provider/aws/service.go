// Package aws implements the provider contract on top of the AWS Elastic
// Beanstalk and S3 APIs.
package aws

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/endpoints"
	"github.com/aws/aws-sdk-go-v2/aws/external"
	"github.com/aws/aws-sdk-go-v2/service/elasticbeanstalk"
	"github.com/aws/aws-sdk-go-v2/service/elasticbeanstalk/elasticbeanstalkiface"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/s3iface"
	"github.com/func/beanstalk/provider"
	"github.com/pkg/errors"
)

// Client manages Elastic Beanstalk resources in a single region.
//
// A Client is created per invocation and passed explicitly to the
// reconcilers.
type Client struct {
	EB elasticbeanstalkiface.ClientAPI
	S3 s3iface.ClientAPI
}

// New creates a new client from the given configuration.
func New(cfg aws.Config) *Client {
	return &Client{
		EB: elasticbeanstalk.New(cfg),
		S3: s3.New(cfg),
	}
}

// Options control how the AWS configuration is resolved.
type Options struct {
	Region  string // If not set, DefaultRegion is used.
	Profile string // Shared config profile. If not set, the default chain is used.
}

// Config resolves an AWS configuration. Credentials are resolved with the
// default SDK credential chain.
func Config(opts Options) (aws.Config, error) {
	region := opts.Region
	if region == "" {
		region = DefaultRegion()
	}
	cfgs := []external.Config{external.WithRegion(region)}
	if opts.Profile != "" {
		cfgs = append(cfgs, external.WithSharedConfigProfile(opts.Profile))
	}
	cfg, err := external.LoadDefaultAWSConfig(cfgs...)
	if err != nil {
		return aws.Config{}, errors.Wrap(err, "load aws config")
	}
	return cfg, nil
}

// DefaultRegion determines the default region to use based on:
//
//   - From AWS_DEFAULT_REGION environment variable.
//   - From region in ~/.aws/credentials.
//   - If neither is set, us-east-1 is used.
func DefaultRegion() string {
	const fallback = endpoints.UsEast1RegionID
	var cfgs external.Configs
	cfgs, err := cfgs.AppendFromLoaders(external.DefaultConfigLoaders)
	if err != nil {
		return fallback
	}
	cfg, err := cfgs.ResolveAWSConfig([]external.AWSConfigResolver{
		external.ResolveRegion,
	})
	if err != nil {
		return fallback
	}
	if cfg.Region == "" {
		// No AWS config available
		return fallback
	}
	return cfg.Region
}

var _ provider.Client = (*Client)(nil)
