package main

// This is an example of using the Q interpreter as a library in a Go application

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/phroun/qabalah"
)

func run(q *qabalah.Interpreter, src, input string) string {
	var out bytes.Buffer
	if err := q.Run([]byte(src), strings.NewReader(input), &out); err != nil {
		fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
	}
	q.FinishLine(&out)
	return out.String()
}

func main() {
	// Create the interpreter with custom config
	config := qabalah.DefaultConfig()
	config.StackDepth = 32
	q := qabalah.New(config)

	fmt.Println("=== Q Example ===")
	fmt.Println()

	// Example 1: Hello world. '\' prints a newline.
	fmt.Println("Example 1: Output")
	fmt.Print(run(q, `'Hello, World!\'&`, ""))
	fmt.Println()

	// Example 2: Arithmetic through the register window
	fmt.Println("Example 2: Arithmetic")
	fmt.Print(run(q, `A7 B6 C*&`, ""))
	fmt.Println()

	// Example 3: Conditional block with else
	fmt.Println("Example 3: Conditional")
	fmt.Print(run(q, `A5 [A>3? B'big'& | B'small'&]`, ""))
	fmt.Println()

	// Example 4: Loop
	fmt.Println("Example 4: Loop")
	fmt.Print(run(q, `A0 [A++ A& A<5? @<]`, ""))
	fmt.Println()

	// Example 5: Subroutine
	fmt.Println("Example 5: Subroutine")
	fmt.Print(run(q, `F@:[G'sub '& @^] F@ F@`, ""))
	fmt.Println()

	// Example 6: Reading input
	fmt.Println("Example 6: Input")
	fmt.Print(run(q, `N&< G'Hello, &N!'&`, "Reader\n"))
	fmt.Println()

	// Example 7: Gematria
	fmt.Println("Example 7: Gematria")
	fmt.Println("ValueSum(\"amen\") =", qabalah.ValueSum([]byte("amen")))
	fmt.Println("Reduce(1234, 9) =", qabalah.Reduce(1234, 9))
	fmt.Println()

	// Example 8: Hebrew letters name variables too
	fmt.Println("Example 8: Hebrew variables")
	fmt.Print(run(q, "א3 ב4 ג+ G&", ""))
	fmt.Println()

	fmt.Println("=== Examples Complete ===")
}
