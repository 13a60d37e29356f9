package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Dispatch bool
	Register bool
	Exec     bool
	Query    bool
	Fork     bool
	Script   bool
}

var d *debug

func init() {
	d = &debug{}
	d.Dispatch = boolEnv("LAMBDA_DEBUG_DISPATCH")
	d.Register = boolEnv("LAMBDA_DEBUG_REGISTER")
	d.Exec = boolEnv("LAMBDA_DEBUG_EXEC")
	d.Query = boolEnv("LAMBDA_DEBUG_QUERY")
	d.Fork = boolEnv("LAMBDA_DEBUG_FORK")
	d.Script = boolEnv("LAMBDA_DEBUG_SCRIPT")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Dispatch() bool {
	return d.Dispatch
}
func Register() bool {
	return d.Register
}
func Exec() bool {
	return d.Exec
}
func Query() bool {
	return d.Query
}
func Fork() bool {
	return d.Fork
}
func Script() bool {
	return d.Script
}
