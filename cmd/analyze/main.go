// Command analyze prints quick, human-readable heuristics about board layout
// files. For each layout it shows the score breakdown, the wildlife groups
// behind it, and the animals that are not earning points yet.
//
// Usage:
//
//	analyze                 # every *.txt file in ./layouts
//	analyze dir/            # every *.txt file in dir
//	analyze a.txt b.txt     # the named files
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/wricardo/mcp-training/cascadia/game/engine"
)

// styles colours the report. The zero value prints plain text.
type styles struct {
	header lipgloss.Style
	ok     lipgloss.Style
	warn   lipgloss.Style
}

func terminalStyles() styles {
	return styles{
		header: lipgloss.NewStyle().Bold(true),
		ok:     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		warn:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	}
}

// Analysis summarizes one board
type Analysis struct {
	Filled        int
	Score         engine.ScoreBreakdown
	BearGroups    []int
	SalmonChains  []int
	IsolatedHawks int
	CrowdedHawks  int
	FoxDiversity  []int
	ElkRows       []int
	ElkColumns    []int
	LoneElk       int
	HabitatAreas  map[engine.HabitatKind][]int
	Warnings      []string
}

func main() {
	files, err := layoutFiles(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	st := terminalStyles()
	for _, file := range files {
		fmt.Println()
		fmt.Println(st.header.Render(fmt.Sprintf("=== Analyzing %s ===", file)))
		if err := analyzeFile(os.Stdout, file, st); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
}

// layoutFiles expands the arguments into a sorted list of layout files
func layoutFiles(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"layouts"}
	}

	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(arg, "*.txt"))
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}
	return files, nil
}

func analyzeFile(w io.Writer, path string, st styles) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	board, err := engine.ReadLayout(f)
	if err != nil {
		return err
	}

	printAnalysis(w, &board, analyzeBoard(&board), st)
	return nil
}

func sizes(groups [][]int) []int {
	out := make([]int, len(groups))
	for i, g := range groups {
		out[i] = len(g)
	}
	return out
}

// analyzeBoard collects groups, lines and unscored animals
func analyzeBoard(board *engine.Board) Analysis {
	a := Analysis{
		Filled:       board.OccupiedCount(),
		Score:        engine.ComputeScore(board),
		BearGroups:   sizes(engine.AnimalGroups(board, engine.Bear)),
		SalmonChains: sizes(engine.AnimalGroups(board, engine.Salmon)),
		HabitatAreas: make(map[engine.HabitatKind][]int),
	}

	for _, pos := range board.AnimalPositions(engine.Hawk) {
		if engine.IsIsolated(board, pos) {
			a.IsolatedHawks++
		} else {
			a.CrowdedHawks++
		}
	}

	for _, pos := range board.AnimalPositions(engine.Fox) {
		a.FoxDiversity = append(a.FoxDiversity, engine.AdjacentDiversity(board, pos))
	}

	inLine := make(map[int]bool)
	for _, axis := range []engine.Axis{engine.Horizontal, engine.Vertical} {
		for _, line := range engine.ElkLines(board, axis) {
			if len(line) < engine.ElkMinLine {
				continue
			}
			for _, pos := range line {
				inLine[pos] = true
			}
			if axis == engine.Horizontal {
				a.ElkRows = append(a.ElkRows, len(line))
			} else {
				a.ElkColumns = append(a.ElkColumns, len(line))
			}
		}
	}
	for _, pos := range board.AnimalPositions(engine.Elk) {
		if !inLine[pos] {
			a.LoneElk++
		}
	}

	for _, habitat := range engine.AllHabitats {
		if areas := engine.HabitatAreas(board, habitat); len(areas) > 0 {
			a.HabitatAreas[habitat] = sizes(areas)
		}
	}

	a.Warnings = warnings(a)
	return a
}

func warnings(a Analysis) []string {
	var out []string

	unscoredBears := 0
	for _, n := range a.BearGroups {
		if n < engine.BearMinGroup {
			unscoredBears += n
		}
	}
	if unscoredBears > 0 {
		out = append(out, fmt.Sprintf("%d bears are in groups smaller than %d", unscoredBears, engine.BearMinGroup))
	}

	lonelySalmon := 0
	for _, n := range a.SalmonChains {
		if n < engine.SalmonMinChain {
			lonelySalmon += n
		}
	}
	if lonelySalmon > 0 {
		out = append(out, fmt.Sprintf("%d salmon are not part of a chain", lonelySalmon))
	}

	if a.CrowdedHawks > 0 {
		out = append(out, fmt.Sprintf("%d hawks are next to another hawk", a.CrowdedHawks))
	}

	idleFoxes := 0
	for _, d := range a.FoxDiversity {
		if d == 0 {
			idleFoxes++
		}
	}
	if idleFoxes > 0 {
		out = append(out, fmt.Sprintf("%d foxes have no animal neighbours", idleFoxes))
	}

	if a.LoneElk > 0 {
		out = append(out, fmt.Sprintf("%d elk are not in any line", a.LoneElk))
	}
	return out
}

func printAnalysis(w io.Writer, board *engine.Board, a Analysis, st styles) {
	for _, row := range board.Layout() {
		fmt.Fprintf(w, "  %s\n", row)
	}
	fmt.Fprintf(w, "Filled: %d/%d\n", a.Filled, engine.BoardCells)
	fmt.Fprintln(w, st.header.Render(fmt.Sprintf("Score: %d", a.Score.Total)))

	fmt.Fprintf(w, "Bears: groups %v -> %d\n", a.BearGroups, a.Score.PerSpecies[engine.Bear])
	fmt.Fprintf(w, "Salmon: chains %v -> %d\n", a.SalmonChains, a.Score.PerSpecies[engine.Salmon])
	fmt.Fprintf(w, "Hawks: %d isolated, %d crowded -> %d\n", a.IsolatedHawks, a.CrowdedHawks, a.Score.PerSpecies[engine.Hawk])
	fmt.Fprintf(w, "Foxes: diversity %v -> %d\n", a.FoxDiversity, a.Score.PerSpecies[engine.Fox])
	fmt.Fprintf(w, "Elk: rows %v, columns %v -> %d\n", a.ElkRows, a.ElkColumns, a.Score.PerSpecies[engine.Elk])

	for _, habitat := range engine.AllHabitats {
		areas, ok := a.HabitatAreas[habitat]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s: areas %v -> %d\n", habitat, areas, a.Score.PerHabitat[habitat])
	}

	if len(a.Warnings) == 0 {
		fmt.Fprintln(w, st.ok.Render("✅ Every animal is scoring"))
		return
	}
	for _, warning := range a.Warnings {
		fmt.Fprintln(w, st.warn.Render("⚠️  "+warning))
	}
}
