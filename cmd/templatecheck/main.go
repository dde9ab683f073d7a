// cmd/templatecheck validates a CUE template package before deployment.
//
// It loads the templates the same way the server does and reports
// declaration problems that would otherwise only surface at startup:
// missing names, fields without labels, fields referencing undeclared
// sections, and duplicate labels that will be disambiguated at build time.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/docflow/docflow/internal/catalog"
	"github.com/docflow/docflow/internal/keys"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("templatecheck: ")

	dir := flag.String("dir", ".", "directory containing the CUE template package")
	flag.Parse()

	templates, err := catalog.Load(*dir)
	if err != nil {
		log.Fatalf("loading templates: %v", err)
	}
	if len(templates) == 0 {
		log.Fatal("no templates declared")
	}

	warnings := 0
	for _, t := range templates {
		fmt.Printf("template %q: %d sections, %d fields\n", t.Name, len(t.Sections), len(t.Fields))

		declared := make(map[string]bool, len(t.Sections))
		for _, s := range t.Sections {
			declared[s.ID] = true
		}

		seen := make(map[string]string, len(t.Fields))
		for _, f := range t.Fields {
			if f.Section != "" && !declared[f.Section] {
				fmt.Printf("  WARNING: field %q references undeclared section %q (will land in General)\n", f.Label, f.Section)
				warnings++
			}
			k := keys.Normalize(f.Label)
			if prev, ok := seen[k]; ok {
				fmt.Printf("  WARNING: labels %q and %q share key %q (will be disambiguated)\n", prev, f.Label, k)
				warnings++
			} else {
				seen[k] = f.Label
			}
			if f.Type == catalog.TypeTable && len(f.Columns) == 0 {
				fmt.Printf("  WARNING: table field %q declares no columns (placeholders will be seeded)\n", f.Label)
				warnings++
			}
		}
	}

	if warnings > 0 {
		fmt.Printf("\ntemplatecheck: %d warning(s)\n", warnings)
		os.Exit(1)
	}
	fmt.Println("\ntemplatecheck: OK")
}
