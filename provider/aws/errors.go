package aws

import (
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws/awserr"
	"github.com/func/beanstalk/provider"
)

var codeKinds = map[string]provider.Kind{
	// Auth
	"AccessDenied":                    provider.KindAuth,
	"AccessDeniedException":           provider.KindAuth,
	"ExpiredToken":                    provider.KindAuth,
	"ExpiredTokenException":           provider.KindAuth,
	"InsufficientPrivilegesException": provider.KindAuth,
	"InvalidAccessKeyId":              provider.KindAuth,
	"InvalidClientTokenId":            provider.KindAuth,
	"MissingAuthenticationToken":      provider.KindAuth,
	"SignatureDoesNotMatch":           provider.KindAuth,
	"UnrecognizedClientException":     provider.KindAuth,
	"NoCredentialProviders":           provider.KindAuth,

	// Not found
	"NotFound":                  provider.KindNotFound,
	"NoSuchBucket":              provider.KindNotFound,
	"NoSuchKey":                 provider.KindNotFound,
	"ResourceNotFoundException": provider.KindNotFound,

	// Validation
	"InvalidParameterCombination":            provider.KindValidation,
	"InvalidParameterValue":                  provider.KindValidation,
	"MissingParameter":                       provider.KindValidation,
	"ValidationError":                        provider.KindValidation,
	"InvalidRequestException":                provider.KindValidation,
	"OperationInProgressFailure":             provider.KindValidation,
	"SourceBundleDeletionFailure":            provider.KindValidation,
	"TooManyApplicationsException":           provider.KindValidation,
	"TooManyApplicationVersionsException":    provider.KindValidation,
	"TooManyConfigurationTemplatesException": provider.KindValidation,
	"TooManyEnvironmentsException":           provider.KindValidation,
	"S3LocationNotInServiceRegionException":  provider.KindValidation,

	// Throttling
	"Throttling":                             provider.KindThrottling,
	"ThrottlingException":                    provider.KindThrottling,
	"ThrottledException":                     provider.KindThrottling,
	"RequestLimitExceeded":                   provider.KindThrottling,
	"RequestThrottled":                       provider.KindThrottling,
	"SlowDown":                               provider.KindThrottling,
	"TooManyRequestsException":               provider.KindThrottling,
	"ProvisionedThroughputExceededException": provider.KindThrottling,

	// Transient
	"InternalFailure":    provider.KindTransient,
	"InternalError":      provider.KindTransient,
	"ServiceUnavailable": provider.KindTransient,
	"RequestTimeout":     provider.KindTransient,
	"RequestError":       provider.KindTransient,
}

// Elastic Beanstalk reports most missing resources as InvalidParameterValue,
// only the message tells them apart.
var notFoundMessages = []string{
	"No Environment found",
	"No Application named",
	"No Application Version named",
	"No Configuration Template named",
	"does not exist",
}

// classify converts an SDK error to a *provider.Error.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*provider.Error); ok {
		return err
	}
	perr := &provider.Error{
		Op:      op,
		Message: err.Error(),
		Err:     err,
	}
	aerr, ok := err.(awserr.Error)
	if !ok {
		return perr
	}
	perr.Code = aerr.Code()
	perr.Message = aerr.Message()
	perr.Kind = codeKinds[aerr.Code()]
	if perr.Kind == provider.KindValidation || perr.Kind == provider.KindUnknown {
		for _, m := range notFoundMessages {
			if strings.Contains(perr.Message, m) {
				perr.Kind = provider.KindNotFound
				break
			}
		}
	}
	if perr.Kind != provider.KindUnknown {
		return perr
	}
	if rf, ok := err.(awserr.RequestFailure); ok {
		perr.Kind = statusKind(rf.StatusCode())
	}
	return perr
}

func statusKind(code int) provider.Kind {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return provider.KindAuth
	case code == http.StatusNotFound:
		return provider.KindNotFound
	case code == http.StatusTooManyRequests:
		return provider.KindThrottling
	case code >= 400 && code < 500:
		return provider.KindValidation
	case code >= 500:
		return provider.KindTransient
	}
	return provider.KindUnknown
}

// invalidInput wraps a client side input validation error.
func invalidInput(op string, err error) error {
	return &provider.Error{
		Kind:    provider.KindValidation,
		Op:      op,
		Message: err.Error(),
		Err:     err,
	}
}
