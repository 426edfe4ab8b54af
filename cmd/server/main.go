package main

import "teamtrack/internal/app"

// @title           TeamTrack API
// @version         1.0
// @description     Project and task tracking with OTP-confirmed accounts and JWT auth.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	app.Run()
}
