package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           assistd API
// @version         1.0
// @description     HTTP API for adapter-switching LLM assistance: intent routing, adapter swaps, text generation.
//
// @contact.name   assistd maintainers
// @contact.url    https://github.com/your-org/assistd
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
