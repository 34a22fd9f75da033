// Command fsmctl validates and runs state machines described in YAML.
package main

func main() {
	Execute()
}
