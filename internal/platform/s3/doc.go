// Package s3 stores cluster descriptor snapshots in S3.
//
// Every successful apply uploads the effective, defaulted configuration as
// a timestamped YAML object, so the exact shape of the cluster at any point
// in time can be recovered and diffed.
package s3
