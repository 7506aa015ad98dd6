package main

// General API documentation for swaggo. Run `swag init -g cmd/modelgw/docs.go`
// to regenerate.
//
// @title           modelgw API
// @version         1.0
// @description     HTTP API for multi-model inference serving: completion
// @description     dispatch, runtime model switching, per-model health, and
// @description     text-transform wrappers.
//
// @contact.name   modelgw maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
