package main

import (
	"fmt"
	"strconv"

	"github.com/jaosorio1013/MeasureIt-ARCH/internal/edit"
	"github.com/spf13/cobra"
)

var deleteAll bool

var deleteCmd = &cobra.Command{
	Use:   "delete [scene.yaml] [object] [index]",
	Short: "Delete a measurement by its index",
	Long: `Delete the measure with the index shown by 'measureit resolve'.
With --all every measure of the object is deleted; without an object, of every object.`,
	Args: cobra.RangeArgs(1, 3),
	Run:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteAll, "all", "a", false, "Delete all measures")
}

func runDelete(cmd *cobra.Command, args []string) {
	path := args[0]
	s := loadScene(path)

	object := ""
	if len(args) > 1 {
		object = args[1]
	}

	if deleteAll {
		n, err := edit.DeleteAll(s, object)
		if err != nil {
			fail("Error: %v (objects: %s)", err, objectNames(s))
		}
		saveScene(s, path)
		fmt.Printf("Deleted %d measure(s)\n", n)
		return
	}

	if len(args) != 3 {
		fail("Error: an object and an index are required unless --all is given")
	}
	index, err := strconv.Atoi(args[2])
	if err != nil {
		fail("Error: invalid index %q", args[2])
	}
	if err := edit.Delete(s, object, index); err != nil {
		fail("Error: %v", err)
	}
	saveScene(s, path)
	fmt.Printf("Deleted measure %d of %s\n", index, object)
}
