package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           inferdash API
// @version         1.0
// @description     HTTP API for the inference-backend dashboard aggregator.
//
// @contact.name   inferdash maintainers
// @contact.url    https://github.com/your-org/inferdash
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
