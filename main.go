package main

import "github.com/invoicedesk/invoicedesk/cmd"

func main() {
	cmd.Execute()
}
