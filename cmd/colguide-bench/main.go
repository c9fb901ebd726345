// colguide-bench measures how much surface churn configuration edits cause.
// It attaches several views to one library, replays random edits and
// reports timing plus line registrations per event.
package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/phroun/colguide"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
)

type BenchResult struct {
	Name     string
	Duration time.Duration
	Ops      int
	Extra    string
}

func (r BenchResult) String() string {
	if r.Ops > 0 {
		opsPerSec := float64(r.Ops) / r.Duration.Seconds()
		if r.Extra != "" {
			return fmt.Sprintf("%-40s %12v  (%d ops, %.2f ops/sec) %s", r.Name, r.Duration.Round(time.Microsecond), r.Ops, opsPerSec, r.Extra)
		}
		return fmt.Sprintf("%-40s %12v  (%d ops, %.2f ops/sec)", r.Name, r.Duration.Round(time.Microsecond), r.Ops, opsPerSec)
	}
	if r.Extra != "" {
		return fmt.Sprintf("%-40s %12v  %s", r.Name, r.Duration.Round(time.Microsecond), r.Extra)
	}
	return fmt.Sprintf("%-40s %12v", r.Name, r.Duration.Round(time.Microsecond))
}

var (
	associationCount int
	guideCount       int
	iterations       int
	viewCount        int
	seed             uint64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "colguide-bench",
		Short: "Benchmark column guide synchronization",
		Args:  cobra.NoArgs,
		RunE:  run,
	}
	rootCmd.Flags().IntVar(&associationCount, "associations", 32, "associations in the configuration")
	rootCmd.Flags().IntVar(&guideCount, "guides", 4, "guides per association")
	rootCmd.Flags().IntVar(&iterations, "iterations", 1000, "edits per benchmark")
	rootCmd.Flags().IntVar(&viewCount, "views", 4, "views attached to the library")
	rootCmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bench holds one library with its attached views.
type bench struct {
	lib   *colguide.Library
	reg   *prometheus.Registry
	views []*colguide.MemoryView
	rnd   *rand.Rand
}

func run(cmd *cobra.Command, args []string) error {
	fmt.Println("Column Guide Benchmark")
	fmt.Println("======================")
	fmt.Printf("Associations: %d, guides each: %d, views: %d\n", associationCount, guideCount, viewCount)
	fmt.Printf("Go version: %s\n", runtime.Version())
	fmt.Println()

	face, err := loadMonoFace()
	if err != nil {
		return err
	}
	defer face.Close()

	var results []BenchResult

	runBench := func(name string, fn func(b *bench) BenchResult) error {
		b, err := newBench(face)
		if err != nil {
			return err
		}
		defer b.lib.Close()

		fmt.Printf("  %-40s ", name+"...")
		added, removed := b.registrations()
		result := fn(b)
		result.Name = name
		if result.Ops > 0 {
			a, r := b.registrations()
			result.Extra = fmt.Sprintf("[%.1f adds, %.1f removes per op]",
				(a-added)/float64(result.Ops), (r-removed)/float64(result.Ops))
		}
		fmt.Printf("%v\n", result.Duration.Round(time.Microsecond))
		results = append(results, result)
		return nil
	}

	benches := []struct {
		name string
		fn   func(b *bench) BenchResult
	}{
		{"Attach and close views", benchAttach},
		{"Guide column changes", benchColumns},
		{"Guide add/remove", benchGuideChurn},
		{"Association moves", benchAssociationMoves},
		{"Association enable toggles", benchEnableToggles},
		{"Scroll", benchScroll},
		{"Options reset", benchReset},
	}
	for _, bb := range benches {
		if err := runBench(bb.name, bb.fn); err != nil {
			return err
		}
	}

	fmt.Println()
	fmt.Println("SUMMARY")
	fmt.Println("=======")
	for _, r := range results {
		fmt.Println(r)
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	fmt.Println()
	fmt.Printf("Peak heap allocation: %d MB\n", m.HeapSys/(1024*1024))
	fmt.Printf("Total allocations: %d MB\n", m.TotalAlloc/(1024*1024))
	return nil
}

func loadMonoFace() (font.Face, error) {
	f, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	return opentype.NewFace(f, &opentype.FaceOptions{Size: 12, DPI: 96, Hinting: font.HintingFull})
}

func newBench(face font.Face) (*bench, error) {
	opts := &colguide.Options{ShowGuides: true, StickToPage: true, SnapToPixels: true}
	for i := range associationCount {
		a := &colguide.FileTypesAssociation{Enabled: true}
		a.SetFileTypes("*.go;*.md")
		for j := range guideCount {
			a.Guides = append(a.Guides, &colguide.Guide{
				Visible: true,
				Column:  40 + i + j*20,
				Color:   colguide.Gray,
				Width:   1,
				Dashes:  []float64{},
			})
		}
		opts.Associations = append(opts.Associations, a)
	}

	settings := colguide.FactoryDefaults()
	settings.MaxAssociationCount = max(settings.MaxAssociationCount, associationCount+1)
	settings.MaxAssociationGuideCount = max(settings.MaxAssociationGuideCount, guideCount+1)

	reg := prometheus.NewRegistry()
	lib, err := colguide.Init(colguide.LibraryOptions{
		Options:           opts,
		Settings:          settings,
		MetricsRegisterer: reg,
	})
	if err != nil {
		return nil, err
	}

	b := &bench{lib: lib, reg: reg, rnd: rand.New(rand.NewPCG(seed, seed^0x5bd1e995))}
	for i := range viewCount {
		v := colguide.NewMemoryView(fmt.Sprintf("file%d.go", i), 900)
		v.ChangeFormat(colguide.FaceTypeface{Face: face})
		if _, err := lib.Attach(v, v); err != nil {
			lib.Close()
			return nil, err
		}
		b.views = append(b.views, v)
	}
	return b, nil
}

// registrations reads the primitive counters from the library metrics.
func (b *bench) registrations() (added, removed float64) {
	families, err := b.reg.Gather()
	if err != nil {
		return 0, 0
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch mf.GetName() {
			case "colguide_primitives_added_total":
				added += m.GetCounter().GetValue()
			case "colguide_primitives_removed_total":
				removed += m.GetCounter().GetValue()
			}
		}
	}
	return added, removed
}

func (b *bench) randomAssociation() *colguide.AssociationModel {
	m := b.lib.Model()
	return m.Association(b.rnd.IntN(m.AssociationCount()))
}

func timed(ops int, fn func(i int)) BenchResult {
	start := time.Now()
	for i := range ops {
		fn(i)
	}
	return BenchResult{Duration: time.Since(start), Ops: ops}
}

func benchAttach(b *bench) BenchResult {
	return timed(iterations/10+1, func(i int) {
		v := colguide.NewMemoryView("main.go", 900)
		a, err := b.lib.Attach(v, v)
		if err == nil {
			a.Close()
		}
	})
}

func benchColumns(b *bench) BenchResult {
	return timed(iterations, func(i int) {
		a := b.randomAssociation()
		if a.GuideCount() > 0 {
			a.Guide(b.rnd.IntN(a.GuideCount())).SetColumn(b.rnd.IntN(200))
		}
	})
}

func benchGuideChurn(b *bench) BenchResult {
	m := b.lib.Model()
	return timed(iterations, func(i int) {
		a := b.randomAssociation()
		if i%2 == 0 {
			m.AddGuide(a, b.rnd.IntN(a.GuideCount()+1))
		} else if a.GuideCount() > 0 {
			m.RemoveGuide(a, a.Guide(b.rnd.IntN(a.GuideCount())))
		}
	})
}

func benchAssociationMoves(b *bench) BenchResult {
	m := b.lib.Model()
	return timed(iterations, func(i int) {
		m.MoveAssociation(b.randomAssociation(), b.rnd.IntN(m.AssociationCount()))
	})
}

func benchEnableToggles(b *bench) BenchResult {
	return timed(iterations, func(i int) {
		a := b.randomAssociation()
		a.SetEnabled(!a.Enabled())
	})
}

func benchScroll(b *bench) BenchResult {
	return timed(iterations, func(i int) {
		b.views[i%len(b.views)].Scroll(float64(b.rnd.IntN(40) - 20))
	})
}

func benchReset(b *bench) BenchResult {
	m := b.lib.Model()
	return timed(iterations/10+1, func(i int) {
		m.SetOptions(m.Options().Clone())
	})
}
