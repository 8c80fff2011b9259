// Command spacex-etl fetches SpaceX API datasets and loads them into a
// relational database, evolving the schema as the records demand.
package main

import (
	"os"

	"github.com/MichalMlada/ETL-spacex/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
