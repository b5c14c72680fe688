package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/polybench-dev/polybench/internal/cache"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the compile cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every cached artifact",
	RunE:  runCacheList,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate compile cache size and entry count",
	RunE:  runCacheStats,
}

var cacheEvictCmd = &cobra.Command{
	Use:   "evict <key>",
	Short: "Evict one cached artifact by key",
	Args:  cobra.ExactArgs(1),
	RunE:  runCacheEvict,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.PersistentFlags().String("cache-dir", "", "compile cache directory (default .polybench/cache)")
	cacheCmd.AddCommand(cacheListCmd, cacheStatsCmd, cacheEvictCmd)
}

func runCacheList(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("cache-dir")
	c, err := openCache(dir)
	if err != nil {
		return err
	}
	defer c.Close()

	entries, err := c.List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tLANGUAGE\tCREATED\tHITS")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", e.Key, e.Language, e.CreatedAt.Format("2006-01-02 15:04:05"), e.HitCount)
	}
	return w.Flush()
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("cache-dir")
	c, err := openCache(dir)
	if err != nil {
		return err
	}
	defer c.Close()

	count, totalBytes, err := c.Stats()
	if err != nil {
		return err
	}
	fmt.Printf("entries: %d\nsize:    %s\n", count, cache.FormatBytes(totalBytes))
	return nil
}

func runCacheEvict(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("cache-dir")
	c, err := openCache(dir)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Evict(args[0]); err != nil {
		return fmt.Errorf("evicting %s: %w", args[0], err)
	}
	fmt.Printf("evicted %s\n", args[0])
	return nil
}
