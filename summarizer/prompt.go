package summarizer

const contentPrompt = `You are an expert content analyst. Analyze this transcript of the video %q and extract EXACTLY 10 important points that few people know, the hidden gems of the video.

STRICT RULES:
- Exactly 10 points, numbered 1 to 10
- Each point must be a surprising, little-known or counterintuitive piece of information
- Be concise but informative, at most 2-3 sentences per point
- Use accessible language
- Base yourself ONLY on the content of the transcript

TRANSCRIPT:
%s

RESPONSE FORMAT (follow it exactly):
1. [First point]
2. [Second point]
...
10. [Tenth point]`

const audiencePrompt = `You are an expert in sentiment and opinion analysis. Analyze these comments on the video %q and produce a structured summary of what the audience expresses.

COMMENTS:
%s

REQUESTED ANALYSIS:
1. **General sentiment**: Is the audience positive, negative or mixed?
2. **Appreciated points**: What do people like most?
3. **Main criticisms**: What are the reservations or complaints?
4. **Recurring questions**: Do the same questions come up again and again?
5. **Surprising insights**: Any unexpected or original reactions?

Be concise and factual. Base yourself only on the comments provided.`
