package main

import (
	"fmt"
	"os"

	ctrl "sigs.k8s.io/controller-runtime"

	_ "github.com/yuriy-kovalchuk/yk-dynadot-updater/internal/dns/providers"
)

var Version = "dev"

func main() {
	root := newRootCmd()
	if err := root.ExecuteContext(ctrl.SetupSignalHandler()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
