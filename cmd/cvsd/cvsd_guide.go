package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

const guide = `
DES Encryption/Decryption Simulator - Usage Guide
================================================================

MODES OF OPERATION:
------------------

1. REGULAR MODE (default)
   Command: cvsd verify
   - Verifies every pattern1 test case against f1.dat and f2.dat
   - Generates golden data for pattern2
   - Shows progress every progress_every test cases

2. VERBOSE MODE
   Command: cvsd verify --verbose
   - Cycle-by-cycle L and R values for encrypt and decrypt
   - All 16 subkeys, initial and final permutation results
   - For ALL test cases (very large output)

3. SINGLE TEST CASE MODE
   Command: cvsd verify --case N
   - Complete cycle-by-cycle trace for test case N
   - Both ENCRYPT and DECRYPT operations

EXAMPLES:
---------

# Debug a specific test case
cvsd verify --case 1 > test_case_1_output.txt

# Trace an arbitrary block and draw its rounds
cvsd trace --key 133457799BBCDFF1 --data 0123456789ABCDEF --svg rounds.svg

# New pattern2 with golden f1/f2 and the f4 sort stream
cvsd pattern -n 65 --seed 42
cvsd generate
cvsd sort

OUTPUT EXPLANATION:
------------------

Subkeys: K1..K16, 48 bits each, in the order the rounds use them.
  Decryption uses the encryption keys in reverse.

Initial Permutation: the 64-bit input after IP, split into L0 and R0.

Each cycle (round):
  L(n) = R(n-1)
  R(n) = L(n-1) XOR F(R(n-1), K(n))

Final: R16||L16 after the final permutation is the output.

FILE FORMAT:
-----------

Each line of pattern, f1, f2 and f4 files holds 32 hex digits:
  16 for the key followed by 16 for the data.
f1 holds encrypt(key, data) and f2 holds decrypt(key, data) of the same
pattern line. Files ending in .zst are zstd compressed.
`

var guideCommand = &cli.Command{
	Name:  "guide",
	Usage: "Print the usage guide",
	Action: func(c *cli.Context) error {
		_, err := fmt.Fprint(c.App.Writer, guide)
		return err
	},
}
