package logger

var LogDir string

var DebugEnabled bool
