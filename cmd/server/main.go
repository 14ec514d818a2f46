package main

// @title           CropTrack API
// @version         1.0
// @description     Record-keeping API for agricultural plant lots
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token
func main() {
	Execute()
}
