package voice

import "context"

// Handler answers one utterance. end asks the loop to stop after speaking
// reply.
type Handler func(ctx context.Context, text string) (reply string, end bool)

// Converse speaks greeting, then alternates Listen and Speak until input runs
// out, ctx is done or handle asks to end. It returns the number of turns.
func Converse(ctx context.Context, vio IO, greeting string, handle Handler) int {
	if greeting != "" {
		vio.Speak(greeting)
	}
	turns := 0
	for {
		text, ok := vio.Listen(ctx)
		if !ok {
			return turns
		}
		turns++
		reply, end := handle(ctx, text)
		if reply != "" {
			vio.Speak(reply)
		}
		if end {
			return turns
		}
	}
}
