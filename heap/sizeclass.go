package heap

// ClassCount is the number of segregated size classes.
const ClassCount = 11

// classBoundaries holds the lower bound of each size class past the first.
// A size below 32 falls in class 0 and a size of 16384 or more in class 10.
var classBoundaries = [ClassCount - 1]int{32, 64, 128, 256, 512, 1024, 2048, 4096, 8192, 16384}

// classOf maps a block size to its segregated free list index.
func classOf(size int) int {
	for class, boundary := range classBoundaries {
		if size < boundary {
			return class
		}
	}

	return ClassCount - 1
}
