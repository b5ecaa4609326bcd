// Command cloudconso estimates the yearly energy consumption and carbon
// emissions of cloud resources on AWS, GCP and Azure.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
