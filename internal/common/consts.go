package common

// UnknownStr is the fallback label for stringers over out-of-range values.
const UnknownStr = "unknown"
