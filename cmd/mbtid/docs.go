package main

// General API documentation for swaggo. Regenerate with
// `swag init -g cmd/mbtid/docs.go -o internal/httpapi/docs`.
//
// @title           mbtid API
// @version         1.0
// @description     Predicts the Myers-Briggs personality type of the author of a text.
//
// @contact.name   mbtid maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
