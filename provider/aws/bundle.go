package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/func/beanstalk/provider"
)

// DeleteBundle deletes the source bundle from S3. No-op if the object does not
// exist.
func (c *Client) DeleteBundle(ctx context.Context, b provider.SourceBundle) error {
	_, err := c.S3.DeleteObjectRequest(&s3.DeleteObjectInput{
		Bucket: aws.String(b.Bucket),
		Key:    aws.String(b.Key),
	}).Send(ctx)
	if err != nil {
		err = classify("DeleteObject", err)
		if provider.IsNotFound(err) {
			return nil
		}
		return err
	}
	return nil
}
