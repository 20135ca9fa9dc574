package report

import (
	"fmt"

	"github.com/pterm/pterm"

	"dedupetree/pkg/models"
)

// ScanTotals carries the raw scan figures the dry-run summary is computed
// from.
type ScanTotals struct {
	FilesScanned       int
	DirectoriesScanned int
	FileSpace          int64
	DirectorySpace     int64
}

// DryRunSummary prints the comprehensive end-of-run panel for dry-run mode.
func DryRunSummary(result models.Result, totals ScanTotals) {
	var sections []string

	if totals.FilesScanned > 0 {
		sections = append(sections, fmt.Sprintf(
			"File Analysis:\n"+
				"• Total files scanned: %d\n"+
				"• Unique files found: %d\n"+
				"• Duplicate file groups: %d\n"+
				"• Duplicate files to remove: %d",
			totals.FilesScanned,
			totals.FilesScanned-result.FilesToRemove,
			len(result.FileGroups),
			result.FilesToRemove,
		))
	}

	if totals.DirectoriesScanned > 0 {
		sections = append(sections, fmt.Sprintf(
			"Directory Analysis:\n"+
				"• Total directories scanned: %d\n"+
				"• Unique directories found: %d\n"+
				"• Duplicate directory groups: %d\n"+
				"• Duplicate directories to remove: %d",
			totals.DirectoriesScanned,
			totals.DirectoriesScanned-result.DirectoriesToRemove,
			len(result.DirectoryGroups),
			result.DirectoriesToRemove,
		))
	}

	spaceScanned := totals.FileSpace + totals.DirectorySpace
	spaceAfter := spaceScanned - result.SpaceToFree
	var savingsPercent float64
	if spaceScanned > 0 {
		savingsPercent = float64(result.SpaceToFree) / float64(spaceScanned) * 100
	}

	sections = append(sections, fmt.Sprintf(
		"Space Analysis:\n"+
			"• Total space scanned: %s\n"+
			"• Space to be freed: %s\n"+
			"• Space after cleanup: %s\n"+
			"• Space savings: %.1f%%",
		bytes(spaceScanned),
		bytes(result.SpaceToFree),
		bytes(spaceAfter),
		savingsPercent,
	))

	sections = append(sections,
		"Next Steps:\n"+
			"• Review the detailed report above\n"+
			"• Run with --delete to replace duplicates with links\n"+
			"• Use --extensions, --min-size, or --min-files to filter results")

	content := "DRY RUN COMPLETE - COMPREHENSIVE SUMMARY\n\n"
	for i, section := range sections {
		if i > 0 {
			content += "\n\n"
		}
		content += section
	}

	pterm.DefaultBox.
		WithTitle(pterm.FgYellow.Sprint("Dry Run Summary")).
		Println(content)

	if len(result.Errors) > 0 {
		pterm.Warning.Printfln("%d errors encountered during analysis", len(result.Errors))
	}
	pterm.Println(pterm.Yellow("No files or directories were modified. Use --delete to replace duplicates with links."))
}

// CacheStats prints checksum cache statistics.
func CacheStats(stats models.CacheStats) {
	pterm.Printfln("Cache entries: %d", stats.TotalEntries)
	pterm.Printfln("Unique checksums: %d", stats.UniqueChecksums)
}
