// Command vcfg-cc drives the register-allocating backend core over a
// handful of built-in demo programs, the graph-coloring kernel in
// isolation, and the priority heap in isolation. This mirrors
// cmd/ralph-cc's cobra-based dump-stage CLI in the retrieval pack,
// narrowed to this repo's backend-only scope: there is no frontend to
// dump stages of, so the demo subcommand plays that role, building IR
// directly the way a hand-written test harness would.
package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/schrodinger-cc/vcfg/pkg/config"
	"github.com/schrodinger-cc/vcfg/pkg/demo"
	"github.com/schrodinger-cc/vcfg/pkg/gcolor"
	"github.com/schrodinger-cc/vcfg/pkg/heap"
	"github.com/schrodinger-cc/vcfg/pkg/stacking"
	"github.com/schrodinger-cc/vcfg/pkg/vcfg"
)

var demoPrograms = map[string]func() *vcfg.Module{
	"linear": demo.LinearChain,
	"branch": demo.BranchMerge,
	"fib":    demo.Fibonacci,
	"spill":  demo.SpillForcing,
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vcfg-cc",
		Short: "register-allocating backend core for a virtual-register IR",
	}
	root.AddCommand(newDemoCmd(), newHeapBenchCmd(), newColorCmd())
	return root
}

func newDemoCmd() *cobra.Command {
	var configPath string
	var dumpIR, dumpAsm bool

	cmd := &cobra.Command{
		Use:   "demo <name>",
		Short: "build and finalize a built-in demo program (linear, branch, fib, spill)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			build, ok := demoPrograms[args[0]]
			if !ok {
				names := make([]string, 0, len(demoPrograms))
				for n := range demoPrograms {
					names = append(names, n)
				}
				sort.Strings(names)
				return fmt.Errorf("unknown demo %q, want one of %s", args[0], strings.Join(names, ", "))
			}

			cfg := config.Defaults()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			_ = cfg // color budget is currently fixed at vreg.RegNum; see DESIGN.md

			m := build()
			if dumpIR {
				dumpModule(cmd.OutOrStdout(), m)
			}
			if err := m.Finalize(stacking.Pipeline{}); err != nil {
				return err
			}
			if dumpAsm {
				m.Output(cmd.OutOrStdout())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	cmd.Flags().BoolVar(&dumpIR, "dump-ir", false, "print the pre-allocation IR before finalizing")
	cmd.Flags().BoolVar(&dumpAsm, "dump-asm", true, "print the finalized assembly")
	return cmd
}

func dumpModule(w io.Writer, m *vcfg.Module) {
	for _, f := range m.Functions {
		fmt.Fprintf(w, "function %s:\n", f.Name)
		for _, b := range f.Blocks {
			fmt.Fprintf(w, "%s:\n", b.Label)
			for _, instr := range b.Instructions {
				fmt.Fprint(w, "\t")
				instr.Output(w)
				fmt.Fprintln(w)
			}
		}
	}
}

func newHeapBenchCmd() *cobra.Command {
	var n int
	var seed int64
	cmd := &cobra.Command{
		Use:   "heap-bench",
		Short: "stress the decreasing-key heap with random keys and decreases",
		RunE: func(cmd *cobra.Command, args []string) error {
			rng := rand.New(rand.NewSource(seed))
			keys := make([]int, n)
			for i := range keys {
				keys[i] = rng.Intn(1000000)
			}
			h := heap.New(keys)
			for i := 0; i < n; i++ {
				idx := rng.Intn(n)
				h.Decrease(idx, 1000)
			}
			popped := 0
			for !h.Empty() {
				h.Pop()
				popped++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "popped %d of %d keys\n", popped, n)
			return nil
		},
	}
	cmd.Flags().IntVar(&n, "n", 100000, "number of random keys")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	return cmd
}

func newColorCmd() *cobra.Command {
	var k int
	cmd := &cobra.Command{
		Use:   "color",
		Short: "color the built-in 5-node example graph at the given budget",
		RunE: func(cmd *cobra.Command, args []string) error {
			g := gcolor.New(5, [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 4}, {3, 4}})
			colors, failures := g.Color(k)
			if colors != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "colored: %v\n", colors)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "failed, spill order: %v\n", failures)
			return nil
		},
	}
	cmd.Flags().IntVar(&k, "k", 3, "color budget")
	return cmd
}
