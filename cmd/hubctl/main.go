// Command hubctl is the operator tool for the stewardship hub: schema
// migration, TOML seeding, a budget report and a receipt dry-run.
package main

func main() {
	Execute()
}
