// Package main is the entry point for the arc-seeder service.
//
// @title          A.R.C. Seeder API
// @version        1.0
// @description    Seeder service: populates reference and sample data into the platform database and provisions super-admin accounts.
// @host           localhost:8082
// @BasePath       /
// @schemes        http
package main

func main() {
	Execute()
}
