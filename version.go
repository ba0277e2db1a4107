package braid

// Version is the current release of the braid library.
const Version = "0.3.0"
