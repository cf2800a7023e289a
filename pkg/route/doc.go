// Package route describes routable pages and bridges them onto a chi
// router.
//
// A Page pairs a URL pattern with the component that renders it and the
// authorization requirements a viewer must satisfy. Pages are collected
// in a Registry and mounted with MountPages; URL matching itself is
// chi's job, and the extracted parameters arrive here as a Match.
package route
