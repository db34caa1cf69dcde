// Package main provides the entry point for the self-provisioning plugin
// service. It runs a web server using the Fiber framework that lets panel
// users create game servers within an administrator-defined policy and lets
// administrators manage that policy, groups and permission grants through a
// REST API. The service uses gorm for data persistence and talks to the
// per-node Wings daemon to materialize servers.
package main
