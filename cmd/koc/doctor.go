package main

import (
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/you-not-fish/koc/internal/rtabi"
)

func newDoctorCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the tools needed to build generated programs are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if code := runDoctor(stdout); code != 0 {
				return &exitError{code: code}
			}
			return nil
		},
	}
}

// runDoctor checks the toolchain and prints a report to w.
func runDoctor(w io.Writer) int {
	fmt.Fprintln(w, "Koc Toolchain Doctor")
	fmt.Fprintln(w, "====================")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Go:      %s\n", runtime.Version())
	fmt.Fprintf(w, "Target:  %s\n", rtabi.TargetTriple)

	host := runtime.GOOS + "/" + runtime.GOARCH
	native := host == "darwin/arm64"
	fmt.Fprintf(w, "Host:    %s", host)
	if native {
		fmt.Fprintln(w, " ✓")
	} else {
		fmt.Fprintln(w, " (generated programs need an Apple arm64 machine to run)")
	}

	allOk := true
	for _, tool := range rtabi.Tools() {
		version, ok := checkTool(tool, "-v")
		fmt.Fprintf(w, "%-8s %s", tool+":", version)
		if ok {
			fmt.Fprintln(w, " ✓")
		} else {
			fmt.Fprintln(w, " ✗ (not found)")
			allOk = false
		}
	}

	fmt.Fprintln(w)
	if allOk {
		fmt.Fprintln(w, "All required tools are available.")
		fmt.Fprintf(w, "Build with: koc prog.ko -o prog.s && %s -arch %s prog.s -o prog.o\n", rtabi.Assembler, rtabi.Arch)
		return 0
	}
	fmt.Fprintln(w, "Some required tools are missing.")
	return 1
}

// checkTool runs a tool and returns the first line of its version output.
// Assemblers and linkers print their version on stderr and may exit
// non-zero for a bare -v, so only a missing binary counts as a failure.
func checkTool(name string, args ...string) (string, bool) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", false
	}

	out, _ := exec.Command(path, args...).CombinedOutput()
	line, _, _ := strings.Cut(string(out), "\n")
	line = strings.TrimSpace(line)
	if len(line) > 60 {
		line = line[:57] + "..."
	}
	if line == "" {
		line = path
	}
	return line, true
}
