//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

// Default target to run when none is specified
// If not set, running mage will list available targets
var Default = Build

func Build() error {
	mg.Deps(BuildGainMap)
	mg.Deps(BuildFitMap)
	fmt.Println("Compilation finished")
	return nil
}

func BuildGainMap() error {
	fmt.Println("Building gainmap executable...")
	return goBuild("./bin/gainmap", "./gainmap")
}

func BuildFitMap() error {
	fmt.Println("Building fitmap executable...")
	return goBuild("./bin/fitmap", "./fitmap")
}

// HDF5 is linked through cgo, the flags come from the environment.
func goBuild(output string, pkg string) error {
	ldflags := os.Getenv("CGO_LDFLAGS")
	cflags := os.Getenv("CGO_CFLAGS")
	cmd := exec.Command("go", "build", "-o", output, pkg)
	cmd.Env = append(os.Environ(),
		"CGO_ENABLED=1",
		fmt.Sprintf("CGO_LDFLAGS=%s", ldflags),
		fmt.Sprintf("CGO_CFLAGS=%s", cflags))
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func Test() error {
	cmd := exec.Command("go", "test", "./pkg/...", "./gainmap", "./fitmap")
	cmd.Env = append(os.Environ(), "CGO_ENABLED=1")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
