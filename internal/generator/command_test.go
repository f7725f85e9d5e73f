package generator

import (
	"strings"
	"testing"
)

func TestGenerateCommandAppliesRemovalToken(t *testing.T) {
	cmd := GenerateCommand("polkadot", DefaultArgs{
		ChainSpecPath: "/ns/rococo-local.json",
		BasePath:      "/ns/nodes/bob",
		Name:          "bob",
		RoleFlag:      "--validator",
	}, []string{"--insecure-validator-i-know-what-i-do", "-:--insecure-validator-i-know-what-i-do"})

	for _, a := range cmd.Args {
		if strings.HasPrefix(a, "-:") {
			t.Fatalf("removal token leaked into argv: %v", cmd.Args)
		}
		if a == "--insecure-validator-i-know-what-i-do" {
			t.Fatalf("expected flag to be removed, got argv: %v", cmd.Args)
		}
	}
}

func TestGenerateCommandRemovalIsOrderIndependent(t *testing.T) {
	argsA := []string{"-:--flag-b", "--flag-a", "--flag-b"}
	argsB := []string{"--flag-a", "--flag-b", "-:--flag-b"}

	cmdA := GenerateCommand("polkadot", DefaultArgs{ChainSpecPath: "c", BasePath: "b", Name: "n"}, argsA)
	cmdB := GenerateCommand("polkadot", DefaultArgs{ChainSpecPath: "c", BasePath: "b", Name: "n"}, argsB)

	hasA := func(argv []string) bool {
		for _, a := range argv {
			if a == "--flag-a" {
				return true
			}
		}
		return false
	}
	hasB := func(argv []string) bool {
		for _, a := range argv {
			if a == "--flag-b" {
				return true
			}
		}
		return false
	}

	if !hasA(cmdA.Args) || hasB(cmdA.Args) {
		t.Fatalf("expected --flag-a present and --flag-b removed, got %v", cmdA.Args)
	}
	if !hasA(cmdB.Args) || hasB(cmdB.Args) {
		t.Fatalf("expected --flag-a present and --flag-b removed, got %v", cmdB.Args)
	}
}

func TestGenerateCommandDefaultPortsOmittedWhenNotRequested(t *testing.T) {
	cmd := GenerateCommand("polkadot", DefaultArgs{
		ChainSpecPath:   "c",
		BasePath:        "b",
		Name:            "n",
		UseDefaultPorts: false,
		RPCPort:         9944,
	}, nil)
	for _, a := range cmd.Args {
		if a == "--rpc-port" {
			t.Fatalf("expected no explicit port flags, got %v", cmd.Args)
		}
	}
}
