package version

// Version is the current release of ftanalyzer.
var Version = "3.0.0"
