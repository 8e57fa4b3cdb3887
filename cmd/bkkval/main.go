package main

import "github.com/forworkyanika/BKK-Smart-Investment-Map/internal/cli"

func main() {
	cli.Execute()
}
