package internal

// Version is the current release of this module, reported in the
// User-Agent header of every request.
const Version = "v0.1.0"
