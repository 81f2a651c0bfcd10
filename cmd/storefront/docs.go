package main

// @title Storefront Service API
// @version 1.0
// @description Product catalog and favorites service with full observability stack (Prometheus, Jaeger, Grafana)

// @contact.name API Support
// @contact.email support@example.com

// @license.name MIT

// @host localhost:8081
// @BasePath /

// @tag.name Favorites
// @tag.description Favorites endpoints

// @tag.name Catalog
// @tag.description Product catalog endpoints

// @tag.name Auth
// @tag.description Authentication endpoints

// @tag.name Health
// @tag.description Health check endpoints
