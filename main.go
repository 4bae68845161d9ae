package main

import "sfneuman.com/rldemos/examples"

func main() {
	examples.EpsilonGreedy()
	examples.UCB()
	examples.GridWorld()
}
