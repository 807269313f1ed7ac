package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rune-race/internal/storage"
	"github.com/vovakirdan/rune-race/internal/zones"
)

var flagCatalog string

var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "Manage zone catalogs",
	Long: `Zones are the tile grids a course is assembled from. A catalog is
a SQLite database of zones; pass it to other commands with --zones.

Examples:
  runerace zones list
  runerace zones import ./levels
  runerace zones delete level-3`,
}

var zonesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the zones in a catalog",
	Args:  cobra.NoArgs,
	Run:   runZonesList,
}

var zonesImportCmd = &cobra.Command{
	Use:   "import [dir]",
	Short: "Copy zone files into a catalog",
	Long: `Read every .yaml, .yml and .json zone file under dir and store
it in the catalog, replacing zones with the same name. Without dir the
built-in zones are imported.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runZonesImport,
}

var zonesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove a zone from a catalog",
	Args:  cobra.ExactArgs(1),
	Run:   runZonesDelete,
}

func init() {
	zonesCmd.PersistentFlags().StringVar(&flagCatalog, "db", "~/.runerace/zones.db", "Path to the zone catalog")
	zonesCmd.AddCommand(zonesListCmd)
	zonesCmd.AddCommand(zonesImportCmd)
	zonesCmd.AddCommand(zonesDeleteCmd)
}

func openCatalog() *storage.Store {
	store, err := storage.Open(flagCatalog)
	if err != nil {
		fail("opening zone catalog", err)
	}
	return store
}

func runZonesList(_ *cobra.Command, _ []string) {
	store := openCatalog()
	defer store.Close()

	infos, err := store.ListZones()
	if err != nil {
		fail("listing zones", err)
	}
	if len(infos) == 0 {
		fmt.Println("No zones in the catalog.")
		fmt.Println()
		fmt.Println("Run 'runerace zones import' to add the built-in zones.")
		return
	}

	maxName := 4 // "Name" header
	for _, z := range infos {
		maxName = max(maxName, len(z.Name))
	}

	fmt.Printf("  %-*s  %-7s  %-6s  %-16s  %s\n", maxName, "Name", "Size", "Layers", "Imported", "Source")
	fmt.Printf("  %-*s  %-7s  %-6s  %-16s  %s\n", maxName, "----", "----", "------", "--------", "------")
	for _, z := range infos {
		fmt.Printf("  %-*s  %-7s  %-6d  %-16s  %s\n",
			maxName, z.Name,
			fmt.Sprintf("%dx%d", z.Width, z.Height),
			z.Layers,
			z.ImportedAt.Format("2006-01-02 15:04"),
			z.Source,
		)
	}
}

func runZonesImport(_ *cobra.Command, args []string) {
	loader := zones.Embedded()
	if len(args) == 1 {
		if _, err := os.Stat(args[0]); err != nil {
			fail("reading zone directory", err)
		}
		loader = zones.NewLoader(args[0])
	}

	store := openCatalog()
	defer store.Close()

	n, err := store.Import(loader)
	if err != nil {
		fail("importing zones", err)
	}
	fmt.Printf("Imported %d zones from %s into %s\n", n, loader.Root(), flagCatalog)
}

func runZonesDelete(_ *cobra.Command, args []string) {
	store := openCatalog()
	defer store.Close()

	if err := store.DeleteZone(args[0]); err != nil {
		fail("deleting zone", err)
	}
	fmt.Printf("Deleted %s\n", args[0])
}
