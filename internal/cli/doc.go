// Package cli implements the multicorn command line: searches and schema listings against a site
// described by a siteconfig YAML file.
package cli
