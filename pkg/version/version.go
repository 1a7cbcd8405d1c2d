package version

var (
	// These values are injected during build - DO NOT MODIFY
	Version   = "VERSION_PLACEHOLDER"
	CommitSHA = "COMMIT_PLACEHOLDER"
)

func GetVersionInfo() string {
	return "FlashLearn " + Version
}

func GetDetailedVersionInfo() string {
	return "FlashLearn\n" +
		"Version:  " + Version + "\n" +
		"Commit:   " + CommitSHA + "\n"
}

// UserAgent is sent with every backend request.
func UserAgent() string {
	return "FlashLearn-Client/" + Version
}
