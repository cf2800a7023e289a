// Package policysrc loads page requirement manifests from external
// sources. A manifest is a JSON document mapping page path patterns to
// requirement specs; its entries append to the requirements pages
// declare in code, so operators can tighten access to a deployed
// application without rebuilding it.
//
// Manifests come from the local filesystem (FileSource) or from S3
// (S3Source). An Overlay plugs a manifest into requirement resolution
// and can be refreshed on an interval with a Reloader.
package policysrc
