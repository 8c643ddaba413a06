package main_test

import (
	"fmt"
	"strings"

	"github.com/containerd/nerdctl/mod/tigron/test"
	"github.com/containerd/nerdctl/mod/tigron/tig"
)

// expectContains returns a comparator verifying the output contains a substring.
func expectContains(substr string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if !strings.Contains(stdout, substr) {
			testing.Log(fmt.Sprintf("expected substring %q not found in output:\n%s", substr, stdout))
			testing.Fail()
		}
	}
}

// expectQualityLine verifies a "<name> | <score> kHz | Quality: <label>" line for name.
func expectQualityLine(name string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		for line := range strings.SplitSeq(stdout, "\n") {
			if strings.HasPrefix(line, name+" | ") && strings.Contains(line, " kHz | Quality: ") {
				return
			}
		}

		testing.Log(fmt.Sprintf("expected a quality line for %q in output:\n%s", name, stdout))
		testing.Fail()
	}
}
