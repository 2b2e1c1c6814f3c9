package trends

const trendPrompt = `You are an expert in social trend analysis. Below are digests of SEVERAL YouTube videos, each with its key points and a summary of what its audience expresses. Identify what the videos and their communities have in COMMON.

DIGESTS OF SEVERAL VIDEOS:
%s

REQUESTED ANALYSIS (IMPORTANT - include verbatim quotes where the digests contain them):

1. **Common trends**: Which themes, opinions or concerns come back in ALL or most of the videos?
   - Quote 2-3 passages verbatim to illustrate

2. **Shared sentiment**: Are there similar emotions or reactions across audiences?
   - Quote 1-2 representative passages

3. **Recurring questions**: Questions that come up everywhere?
   - Quote the exact questions where available

4. **Points of disagreement**: Topics where the communities diverge?
   - Quote opposing examples

5. **Standout verbatims**: Quote 3-5 particularly representative passages that capture the overall opinion, with context

6. **Overall insight**: What conclusion can be drawn about what these audiences want or think?

IMPORTANT:
- Focus ONLY on what is COMMON between the different videos
- QUOTE passages verbatim between quotation marks to support each point
- Mention which video a quote comes from when relevant`
