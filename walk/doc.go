// Package walk lists every file beneath a root directory.
//
// Two walkers share the same options and exclusion rules:
//
//	// Depth-first, lazy, blocking
//	for path, err := range walk.WalkSync("src", walk.Options{}).All() {
//		if err != nil {
//			return err
//		}
//		fmt.Println(path)
//	}
//
//	// Every directory of a depth level listed concurrently
//	paths, err := walk.WalkAsync("src", walk.Options{
//		Resolve:      true,
//		ExcludedDirs: []string{"src/vendor"},
//	}).Collect(ctx)
//
// Paths below the root are forward-slash separated and carry no trailing
// separator; IsExcludedDir receives directories in exactly that form.
package walk
