// Package config provides the desired state for each reconciler and loads
// playbooks from disk.
//
// Every reconciler takes an explicit configuration struct. The structs can be
// populated from command line flags or decoded from HCL playbook files. A
// typical playbook may look something like this:
//
//  region = "us-east-1"
//
//  application "Sample App" {
//    description = "Hello World App"
//  }
//
//  version "v1.0.0" {
//    application = "Sample App"
//    s3_bucket   = "sampleapp-versions-us-east-1"
//    s3_key      = "sample-app-1.0.0.zip"
//  }
//
//  environment "sampleApp-env" {
//    application         = "Sample App"
//    version_label       = "v1.0.0"
//    solution_stack_name = "64bit Amazon Linux 2018.03 v2.12.14 running Docker 18.06.1-ce"
//
//    option_setting {
//      namespace   = "aws:elasticbeanstalk:application:environment"
//      option_name = "PARAM1"
//      value       = "bar"
//    }
//  }
//
// Configuration is validated before any call to the provider is made.
package config
