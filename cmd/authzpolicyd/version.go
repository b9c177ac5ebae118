package main

// version is stamped into every log line via internal/logging. It has no
// other runtime effect.
const version = "dev"
