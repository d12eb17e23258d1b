// Package config defines the eksforge cluster descriptor: the declarative
// YAML schema describing an EKS cluster (node groups, control-plane logging,
// IAM/OIDC, add-ons, storage classes) together with loading, defaulting and
// validation.
//
// Two schemas are provided. Config is the full descriptor consumed by apply,
// render and destroy. Spec is the simplified five-field format written by
// `eksforge init`; Expand turns it into a full Config.
package config
