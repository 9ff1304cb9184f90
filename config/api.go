package config

// GetAuthSkipperPaths returns a list of paths to skip authentication for
func GetAuthSkipperPaths() []string {
	// Login issues the token, health is for probes
	return []string{"/api/auth/login", "/health"}
}
