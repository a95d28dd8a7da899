// facturactl is the command line client for the facturas API. It can talk
// to a running server or operate fully offline on the local JSON store.
package main

func main() {
	Execute()
}
