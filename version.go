package hyperwalk

// Version is the release of the hyperwalk module.
const Version = "0.3.0"
