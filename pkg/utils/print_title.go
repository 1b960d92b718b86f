package utils

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

func GetTerminalWidth() (int, error) {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0, err
	}
	return int(float64(width) * 0.8), nil
}

// PrintTitle centers text in a padded rule sized to the terminal, used
// for the run summary and the gpus table header.
func PrintTitle(text, paddingChar string) {
	width, err := GetTerminalWidth()
	if err != nil || width <= len(text) {
		fmt.Println(text)
		return
	}

	paddingLength := width - len(text)
	leftPadding := paddingLength / 2
	rightPadding := paddingLength - leftPadding

	left := strings.Repeat(paddingChar, leftPadding/len(paddingChar)) + paddingChar[:leftPadding%len(paddingChar)]
	right := strings.Repeat(paddingChar, rightPadding/len(paddingChar)) + paddingChar[:rightPadding%len(paddingChar)]
	fmt.Println(left + text + right)
}
