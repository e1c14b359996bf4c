package strips

// Version is the release version, overridden at build time with
// -ldflags "-X github.com/aretw0/strips.Version=v1.2.3".
var Version = "dev"
