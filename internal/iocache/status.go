package iocache

import (
	"fmt"

	"github.com/slopscan/slopscan/schema"
)

const statusTimeLayout = "2006-01-02 15:04:05"

// PrintCacheStatus prints a human-readable summary of the analysis cache.
func PrintCacheStatus(status schema.CacheStatus) {
	fmt.Printf("Analysis cache backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Cached analyses: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		fmt.Printf("Newest entry: %s\n", status.LastEntryTime.Format(statusTimeLayout))
		fmt.Printf("Oldest entry: %s\n", status.OldestEntryTime.Format(statusTimeLayout))
	}
	fmt.Printf("Storage size: %d bytes\n", status.TableSizeBytes)
}
