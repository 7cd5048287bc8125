package main

// @title Farmstand Inventory Service API
// @version 1.0
// @description Stock ledger for the farmstand commerce backend: inventory items, audit movements, alerts, batch updates and cross-location transfers.

// @contact.name API Support
// @contact.url http://github.com/oakbarn/farmstand

// @license.name MIT

// @host localhost:8082
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Inventory
// @tag.description Stock ledger endpoints

// @tag.name Health
// @tag.description Health check endpoints
