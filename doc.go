/*
Package descry is a pluggable GenAI provider layer for video analytics
systems. It generates natural-language descriptions of detected events from
event thumbnails and supports tool-augmented chat over a provider-agnostic
schema, with Gemini and OpenAI adapters built in.

Construction is the only operation that returns an error. Once a provider is
built, Describe reports failure with an absent result and ChatWithTools
reports it through the finish reason, so callers in the video pipeline never
have to unwind from a flaky remote model.

	client, err := descry.New(ctx, descry.Config{
		Provider: gemini.Name,
		Config: provider.Config{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  "gemini-1.5-flash",
		},
	})
	if err != nil {
		return err
	}

	if desc, ok := client.Describe(ctx, "Describe this event", thumbnails); ok {
		event.Description = desc
	}

Additional adapters register themselves by name through the
provider/providers catalog; importing the adapter package is all a process
has to do to make it constructible.
*/
package descry
