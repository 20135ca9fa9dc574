package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"dedupetree/pkg/models"
)

const checksumPreviewLen = 16

// ModePanel prints the run header describing mode and filters.
func ModePanel(deleteMode bool, root, extensions string, minSize int64, minFiles int) {
	mode := "DRY RUN"
	style := pterm.FgYellow
	if deleteMode {
		mode = "DELETE"
		style = pterm.FgRed
	}
	if extensions == "" {
		extensions = "All files"
	}

	content := fmt.Sprintf(
		"%s MODE - Files & Directory Trees\nDirectory: %s\nExtensions: %s\nMin file size: %s\nMin files per directory: %d",
		mode, root, extensions, bytes(minSize), minFiles,
	)

	pterm.DefaultBox.
		WithTitle(style.Sprint("Dedupe Tree")).
		Println(content)
}

// Summary prints aggregate counts for the analysis result.
func Summary(result models.Result) {
	pterm.DefaultSection.Println("Summary")

	if len(result.FileGroups) > 0 {
		pterm.Printfln("• Total duplicate file groups: %d", len(result.FileGroups))
		pterm.Printfln("• Files to remove: %d", result.FilesToRemove)
	}
	if len(result.DirectoryGroups) > 0 {
		pterm.Printfln("• Total duplicate directory groups: %d", len(result.DirectoryGroups))
		pterm.Printfln("• Directories to remove: %d", result.DirectoriesToRemove)
	}
	pterm.Printfln("• Space to free: %s", pterm.Green(bytes(result.SpaceToFree)))

	if len(result.Errors) > 0 {
		pterm.Printfln("• Errors encountered: %s", pterm.Red(strconv.Itoa(len(result.Errors))))
	}
}

// Detailed prints one table per duplicate group, keep item first.
func Detailed(result models.Result) {
	pterm.DefaultSection.Println("Detailed Report")

	for i, group := range result.FileGroups {
		pterm.Printfln("File Group %d: %s... (%s total)",
			i+1, preview(group.Checksum), bytes(group.TotalSize))

		data := pterm.TableData{{"Status", "Depth", "Size", "Path"}}
		data = append(data, fileRow(pterm.Green("KEEP"), group.Keep))
		for _, f := range group.Remove {
			data = append(data, fileRow(pterm.Red("REMOVE"), f))
		}

		_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		pterm.Println()
	}

	for i, group := range result.DirectoryGroups {
		pterm.Printfln("Directory Group %d: %s... (%s total, %d files)",
			i+1, preview(group.Checksum), bytes(group.TotalSize), group.TotalFiles)

		data := pterm.TableData{{"Status", "Depth", "Size", "Files", "Path"}}
		data = append(data, dirRow(pterm.Green("KEEP"), group.Keep))
		for _, d := range group.Remove {
			data = append(data, dirRow(pterm.Red("REMOVE"), d))
		}

		_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		pterm.Println()
	}
}

// Errors prints the accumulated per-item failures.
func Errors(errs []models.ItemError) {
	if len(errs) == 0 {
		return
	}
	pterm.DefaultSection.Println("Errors")
	for _, e := range errs {
		pterm.Printfln("  %s: %v", e.Path, e.Err)
	}
}

// Removed prints the outcome of an apply run.
func Removed(files, dirs []string, errs []models.ItemError) {
	var parts []string
	if len(files) > 0 {
		parts = append(parts, fmt.Sprintf("%d duplicate files", len(files)))
	}
	if len(dirs) > 0 {
		parts = append(parts, fmt.Sprintf("%d duplicate directories", len(dirs)))
	}

	if len(parts) > 0 {
		pterm.Success.Printfln("Replaced %s with links", strings.Join(parts, " and "))
	} else {
		pterm.Info.Println("Nothing was removed")
	}

	if len(errs) > 0 {
		pterm.Error.Printfln("Failed to process %d items", len(errs))
		for _, e := range errs {
			pterm.Printfln("  %s: %v", e.Path, e.Err)
		}
	}
}

func fileRow(status string, f *models.FileInfo) []string {
	return []string{status, strconv.Itoa(f.Depth), bytes(f.Size), f.Path}
}

func dirRow(status string, d models.DirectoryInfo) []string {
	return []string{status, strconv.Itoa(d.Depth), bytes(d.Size), strconv.Itoa(d.FileCount), d.Path}
}

func preview(checksum string) string {
	if len(checksum) > checksumPreviewLen {
		return checksum[:checksumPreviewLen]
	}
	return checksum
}

// bytes formats a size with 1024-based units.
func bytes(n int64) string {
	if n < 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(n))
}
