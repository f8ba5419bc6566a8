// Command formbuilder renders HTML forms from the component schemas of an
// OpenAPI document.
//
//	formbuilder preview --source api.yaml --operation createArticle
//	formbuilder preview --source api.yaml --interactive --locale de
//	formbuilder serve --addr :8080
//	formbuilder config --config formbuilder.yaml
//	formbuilder lint api.yaml
package main

import (
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand(newApp(os.Stdout, os.Stderr, surveyDriver{}))
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
