package helper

import (
	"fmt"
	"io"
)

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `Usage:
  newsingest COMMAND [OPTIONS]

Commands:
   ingest          fetch every configured source once and store new articles [--num N]
   latest          show the most recent articles [--num N]
   all             show every stored article, including those without a time
   sources         list configured sources
   reset           drop and recreate the articles table (--yes)
   help            show this help

STORE_DRIVER=memory keeps articles for a single ingest run only; latest, all
and reset need STORE_DRIVER=postgres.
`)
}
